package llm

import (
	"context"

	"google.golang.org/genai"
)

// Disabled returns a Generator that fails every call with err. The server
// uses it when no Gemini client could be built so the non-AI endpoints
// still come up.
func Disabled(err error) Generator {
	return disabled{err: err}
}

type disabled struct {
	err error
}

func (d disabled) GenerateJSON(context.Context, string, string, *genai.Schema, any) error {
	return d.err
}

func (d disabled) Chat(context.Context, string) (string, error) {
	return "", d.err
}
