package qa_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/qa"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/rag"
)

func TestBuildAnswerSystemPrompt_StuffsPassages(t *testing.T) {
	prompt := qa.BuildAnswerSystemPrompt([]rag.Passage{
		{Content: "Expense ratio: 0.95%", Source: "factsheet.md", Section: "Key Figures"},
		{Content: "AUM: Rs. 2,400 Cr", Source: "factsheet.md"},
	})

	require.Contains(t, prompt, "IF YOU DON'T KNOW THE ANSWER THEN SAY THAT YOU DON'T KNOW")
	require.Contains(t, prompt, "[1] (factsheet.md, Key Figures)")
	require.Contains(t, prompt, "Expense ratio: 0.95%")
	require.Contains(t, prompt, "[2] (factsheet.md)")
}

func TestBuildAnswerSystemPrompt_NoContext(t *testing.T) {
	prompt := qa.BuildAnswerSystemPrompt(nil)

	require.Contains(t, prompt, "no relevant context was retrieved")
	require.Contains(t, prompt, "SAY THAT YOU DON'T KNOW")
}

func TestReformulateSystemPrompt_DoesNotAnswer(t *testing.T) {
	require.Contains(t, qa.ReformulateSystemPrompt, "DO NOT answer the question")
	require.Contains(t, qa.ReformulateSystemPrompt, "standalone question")
}
