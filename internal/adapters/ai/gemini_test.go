package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error

	model       string
	text        string
	instruction string
	deadline    bool
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.text = contents[0].Parts[0].Text
	}
	if config != nil && config.SystemInstruction != nil && len(config.SystemInstruction.Parts) > 0 {
		f.instruction = config.SystemInstruction.Parts[0].Text
	}
	_, f.deadline = ctx.Deadline()
	return f.resp, f.err
}

func answer(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func TestBuildPrompt(t *testing.T) {
	Convey("Given a prompt and context fields", t, func() {
		Convey("Then non-empty fields are appended one per line", func() {
			So(BuildPrompt("Define it", "serendipity", "noun", "", "a happy accident"),
				ShouldEqual, "Define it\nserendipity\nnoun\na happy accident")
		})

		Convey("Then a bare prompt is returned unchanged", func() {
			So(BuildPrompt("Just this"), ShouldEqual, "Just this")
			So(BuildPrompt("Just this", "", ""), ShouldEqual, "Just this")
		})
	})
}

func TestClientAsk(t *testing.T) {
	Convey("Given a client backed by a fake generator", t, func() {
		ctx := context.Background()
		gen := &fakeGenerator{resp: answer("A fortunate discovery.")}
		client, err := New(ctx, "", WithGenerator(gen), WithModel("test-model"), WithTimeout(time.Second))
		So(err, ShouldBeNil)

		Convey("When the model answers", func() {
			res := client.Ask(ctx, Prompt{Text: "What is serendipity?", Instruction: "Be brief."})

			Convey("Then the answer is returned with status 200", func() {
				So(res.OK(), ShouldBeTrue)
				So(res.Details, ShouldEqual, "A fortunate discovery.")
				So(gen.model, ShouldEqual, "test-model")
				So(gen.text, ShouldEqual, "What is serendipity?")
				So(gen.instruction, ShouldEqual, "Be brief.")
				So(gen.deadline, ShouldBeTrue)
			})
		})

		Convey("When the instruction is blank", func() {
			client.Ask(ctx, Prompt{Text: "hi", Instruction: "  "})

			Convey("Then the default instruction is used", func() {
				So(gen.instruction, ShouldEqual, DefaultInstruction)
			})
		})

		Convey("When the API rejects the request", func() {
			gen.err = genai.APIError{Code: 429, Message: "Resource exhausted", Status: "RESOURCE_EXHAUSTED"}
			res := client.Ask(ctx, Prompt{Text: "hi"})

			Convey("Then its status and message are passed through", func() {
				So(res.StatusCode, ShouldEqual, 429)
				So(res.Details, ShouldEqual, "Resource exhausted")
			})
		})

		Convey("When a wrapped API error pointer comes back", func() {
			gen.err = fmt.Errorf("call: %w", &genai.APIError{Code: 400, Message: "API key not valid"})
			res := client.Ask(ctx, Prompt{Text: "hi"})

			Convey("Then it is still recognised", func() {
				So(res.StatusCode, ShouldEqual, 400)
				So(res.Details, ShouldEqual, "API key not valid")
			})
		})

		Convey("When any other error happens", func() {
			gen.err = errors.New("connection reset")
			res := client.Ask(ctx, Prompt{Text: "hi"})

			Convey("Then it becomes a 500 with a tagged message", func() {
				So(res.StatusCode, ShouldEqual, 500)
				So(res.Details, ShouldEqual, "[Gemini Error] connection reset")
			})
		})
	})
}

func TestClientNotConfigured(t *testing.T) {
	Convey("Given a client without an API key", t, func() {
		client, err := New(context.Background(), "", WithDefaultInstruction("custom"))
		So(err, ShouldBeNil)

		res := client.Ask(context.Background(), Prompt{Text: "hi"})

		So(res.StatusCode, ShouldEqual, 500)
		So(res.Details, ShouldContainSubstring, "[Gemini Error]")
		So(res.Details, ShouldContainSubstring, ErrNotConfigured.Error())
		So(client.instruction, ShouldEqual, "custom")
	})
}
