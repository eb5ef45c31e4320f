package main

import "github.com/okian/lessongen/internal/smoketest"

func main() {
	smoketest.Execute()
}
