package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/gemfeed/gempress/app/database"
	"github.com/gemfeed/gempress/app/llm"
)

// GenerationError reports a malformed post list: not a list, empty, or an
// element missing required fields.
type GenerationError struct {
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("post generation failed: %s", e.Reason)
}

const generatorPromptTemplate = `You are a senior marketing strategist specialized in precious stones and metals in Colombia.

Take the following text:
%s

Your task:
Generate %d short social media posts in Spanish that are:
- Unique from each other in tone, structure, and perspective.
- Short, punchy, informative, and educational.
- Culturally adapted to Latin American audiences.
- Focused on different angles of the same topic (technique, culture, value, sustainability, or emotion).

For each post, provide:
- 'title': a captivating short title (max 7 words)
- 'tags': 2-3 relevant hashtags or keywords
- 'text': the full body of the post, max 600 characters, ending with the original article link: %s

Do NOT repeat the same ideas or phrases between posts.
Use natural, engaging language suitable for Instagram, LinkedIn, or Facebook audiences.

Return ONLY a valid JSON list, like this:
[
  {"title": "...", "tags": ["...", "..."], "text": "..."}
]`

// Generator produces ready-to-publish social posts from translated article text.
type Generator struct {
	invoker *llm.Invoker
}

func NewGenerator(invoker *llm.Invoker) *Generator {
	return &Generator{invoker: invoker}
}

// Generate asks the model for post candidates, decodes them with the quasi-JSON
// repair path, and validates structural completeness before truncating to the
// requested count.
func (g *Generator) Generate(ctx context.Context, text, link string, count int) ([]database.SocialPost, error) {
	if count <= 0 {
		count = 3
	}

	prompt := fmt.Sprintf(generatorPromptTemplate, text, count, link)

	raw, err := g.invoker.Invoke(ctx, "", prompt)
	if err != nil {
		return nil, err
	}

	var candidates []database.SocialPost
	if err := llm.DecodeLoose(raw, &candidates); err != nil {
		return nil, &GenerationError{Reason: err.Error()}
	}

	if len(candidates) == 0 {
		return nil, &GenerationError{Reason: "model returned an empty post list"}
	}

	for i, post := range candidates {
		if err := validatePost(post); err != nil {
			return nil, &GenerationError{Reason: fmt.Sprintf("post %d: %v", i+1, err)}
		}
	}

	if len(candidates) > count {
		candidates = candidates[:count]
	}

	return candidates, nil
}

func validatePost(post database.SocialPost) error {
	if strings.TrimSpace(post.Title) == "" {
		return fmt.Errorf("missing title")
	}
	if strings.TrimSpace(post.Text) == "" {
		return fmt.Errorf("missing text")
	}
	if len(post.Tags) == 0 {
		return fmt.Errorf("missing tags")
	}
	return nil
}
