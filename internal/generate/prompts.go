package generate

import (
	"fmt"

	"github.com/allsetlabs/allset/internal/content"
)

const productSystemPrompt = `You are a marketing copywriter producing landing page content.
Respond with a single JSON object and nothing else. The object must have these keys:
- "pageType": the literal page type you were given
- "seo": {"title", "description", "keywords"}
- "hero": {"title", "description", "primaryCta": {"text", "link"}, "secondaryCta": {"text", "link"}, "imagePrompt"}
- "mainFeatures": {"items": [{"id", "icon", "title", "description", "imagePrompt"}]} with 3 items
- "features": {"title", "description", "items": [{"title", "description", "icon"}]} with 6 items
- "pricing": {"title", "description", "plans": [{"name", "price", "description", "features": [{"text"}], "cta": {"text", "link"}, "highlighted"}]} with 3 plans
- "faqs": {"title", "description", "questions": [{"question", "answer"}]} with 5 entries
- "cta": {"title", "description", "button": {"text", "link"}}
Each "imagePrompt" is a short visual description suitable for an image model.
Icons are heroicon names. Links are site-relative anchors.`

const youtubeSystemPrompt = `You are a marketing copywriter producing a creator channel landing page.
Respond with a single JSON object and nothing else. The object must have these keys:
- "pageType": "youtube"
- "seo": {"title", "description", "keywords"}
- "channelInfo": {"name", "description", "subscriberCount", "profileImage", "bannerImage", "links": [{"platform", "url", "icon"}]}
- "featuredVideos": [{"id", "title", "description", "thumbnail", "viewCount", "duration", "url"}] with 4 entries`

const blogTitlesSystemPrompt = `You suggest blog post titles for a product's content marketing.
Respond with a single JSON object of the form {"titles": ["..."]} and nothing else.`

func contentPrompt(description string, pt content.PageType) (system, user string) {
	if pt == content.PageYouTube {
		return youtubeSystemPrompt,
			fmt.Sprintf("Create channel landing page content for: %s", description)
	}
	return productSystemPrompt,
		fmt.Sprintf("Create %s landing page content for: %s", pt, description)
}

func blogTitlesPrompt(description string, count int) (system, user string) {
	return blogTitlesSystemPrompt,
		fmt.Sprintf("Suggest %d blog post titles for: %s", count, description)
}
