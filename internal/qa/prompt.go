package qa

import (
	"fmt"
	"strings"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/rag"
)

// ReformulateSystemPrompt instructs the model to produce a standalone
// question from a follow-up that may lean on chat history.
const ReformulateSystemPrompt = "Given the chat history and the latest asked question, " +
	"which might reference context in the chat history, " +
	"formulate a standalone question which can be understood " +
	"without the chat history. DO NOT answer the question, " +
	"just reformulate it, otherwise return it as it is."

// BuildAnswerSystemPrompt assembles the QA system prompt with the
// retrieved passages stuffed in.
func BuildAnswerSystemPrompt(passages []rag.Passage) string {
	var b strings.Builder

	b.WriteString("You are an assistant for question-answering tasks. ")
	b.WriteString("You are given a fund factsheet to study, answer as if you are an expert of finance. ")
	b.WriteString("Use the following pieces of retrieved context to answer ")
	b.WriteString("the question. IF YOU DON'T KNOW THE ANSWER THEN SAY THAT YOU DON'T KNOW.\n\n")

	if len(passages) == 0 {
		b.WriteString("(no relevant context was retrieved)\n")
		return b.String()
	}

	b.WriteString("## Retrieved context\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d]", i+1)
		if p.Source != "" {
			fmt.Fprintf(&b, " (%s", p.Source)
			if p.Section != "" {
				fmt.Fprintf(&b, ", %s", p.Section)
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(p.Content))
		b.WriteString("\n\n")
	}
	return b.String()
}
