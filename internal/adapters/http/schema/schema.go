// Package schema validates lesson request bodies against embedded JSON Schemas.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/lessongen/internal/domain/model"
)

// Schema document names.
const (
	Pitching = "pitching.schema.json"
	Hitting  = "hitting.schema.json"
)

// ErrMalformed is returned when the body is not JSON at all.
var ErrMalformed = errors.New("malformed json")

//go:embed *.schema.json
var files embed.FS

// printer formats schema validation error messages.
var printer = message.NewPrinter(language.English)

var compiled = map[string]*jsonschema.Schema{
	Pitching: mustCompile(Pitching),
	Hitting:  mustCompile(Hitting),
}

func mustCompile(name string) *jsonschema.Schema {
	raw, err := files.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded %s: %v", name, err))
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// Validate checks body against the named schema. It returns ErrMalformed
// (wrapped) when body does not parse, and the list of violations otherwise.
// A nil list means the body is valid.
func Validate(name string, body []byte) ([]model.FieldError, error) {
	sch, ok := compiled[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	err = sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	var out []model.FieldError
	collect(ve, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out, nil
}

func collect(ve *jsonschema.ValidationError, out *[]model.FieldError) {
	if len(ve.Causes) == 0 {
		*out = append(*out, model.FieldError{
			Field:  "/" + strings.Join(ve.InstanceLocation, "/"),
			Reason: ve.ErrorKind.LocalizedString(printer),
		})
		return
	}
	for _, c := range ve.Causes {
		collect(c, out)
	}
}
