package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PageType tags which shape a landing content document has.
type PageType string

const (
	PageProduct PageType = "product"
	PageSaaS    PageType = "saas"
	PageYouTube PageType = "youtube"
)

// Valid reports whether pt is one of the recognized page types.
func (pt PageType) Valid() bool {
	switch pt {
	case PageProduct, PageSaaS, PageYouTube:
		return true
	}
	return false
}

// Section is one named content block of a landing page. Content is the
// raw JSON of the section body; typed accessors live on the decoded
// per-page-type structs.
type Section struct {
	Slug    string
	Content json.RawMessage
}

// Document is a landing content document: a page type plus ordered
// named sections. On the wire it is a flat JSON object whose keys are
// the section slugs, with pageType alongside them.
type Document struct {
	PageType PageType
	Sections []Section
}

// Section returns the named section's raw body, or nil.
func (d *Document) Section(slug string) json.RawMessage {
	for _, s := range d.Sections {
		if s.Slug == slug {
			return s.Content
		}
	}
	return nil
}

// MarshalJSON renders the flat wire shape, preserving section order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	pt, err := json.Marshal(string(d.PageType))
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"pageType":`)
	buf.Write(pt)

	for _, s := range d.Sections {
		key, err := json.Marshal(s.Slug)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		if len(s.Content) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(s.Content)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the flat wire shape, keeping sections in their
// order of appearance.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("landing content must be a JSON object")
	}

	d.PageType = ""
	d.Sections = nil

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding section %q: %w", key, err)
		}

		if key == "pageType" {
			var pt string
			if err := json.Unmarshal(raw, &pt); err != nil {
				return fmt.Errorf("decoding pageType: %w", err)
			}
			d.PageType = PageType(pt)
			continue
		}
		d.Sections = append(d.Sections, Section{Slug: key, Content: raw})
	}

	return nil
}

// CtaButton is a labeled link used across sections.
type CtaButton struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// SEO holds page metadata.
type SEO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// HeroSection is the page's lead block.
type HeroSection struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PrimaryCta   CtaButton `json:"primaryCta"`
	SecondaryCta CtaButton `json:"secondaryCta"`
	Image        string    `json:"image,omitempty"`
	ImagePrompt  string    `json:"imagePrompt,omitempty"`
}

// Feature is a short icon+title+description tile.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// FeaturesSection groups secondary feature tiles.
type FeaturesSection struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Items       []Feature `json:"items"`
}

// MainFeature is a headline feature with an illustration.
type MainFeature struct {
	ID          int    `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ImagePrompt string `json:"imagePrompt,omitempty"`
}

// MainFeaturesSection groups the headline features.
type MainFeaturesSection struct {
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Items       []MainFeature `json:"items"`
}

// PricingFeature is one line of a pricing plan.
type PricingFeature struct {
	Text string `json:"text"`
}

// PricingPlan is one column of the pricing grid.
type PricingPlan struct {
	Name        string           `json:"name"`
	Price       string           `json:"price"`
	Description string           `json:"description"`
	Features    []PricingFeature `json:"features"`
	Cta         CtaButton        `json:"cta"`
	Highlighted bool             `json:"highlighted,omitempty"`
}

// PricingSection groups pricing plans.
type PricingSection struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Plans       []PricingPlan `json:"plans"`
}

// FaqItem is one question/answer pair.
type FaqItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FaqsSection groups FAQ entries.
type FaqsSection struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Questions   []FaqItem `json:"questions"`
}

// Testimonial is one customer quote.
type Testimonial struct {
	Name        string `json:"name"`
	Quote       string `json:"quote"`
	Image       string `json:"image"`
	Title       string `json:"title,omitempty"`
	ImagePrompt string `json:"imagePrompt,omitempty"`
}

// TestimonialSection groups customer quotes.
type TestimonialSection struct {
	Title        string        `json:"title,omitempty"`
	Description  string        `json:"description,omitempty"`
	Testimonials []Testimonial `json:"testimonials"`
}

// CtaSection is the closing call to action.
type CtaSection struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Button       CtaButton `json:"button"`
	CollectEmail bool      `json:"collectEmail,omitempty"`
}

// ContactField describes one input of the contact form.
type ContactField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// ContactSection describes the contact form.
type ContactSection struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Fields         []ContactField `json:"fields"`
	SubmitLabel    string         `json:"submitLabel"`
	SuccessMessage string         `json:"successMessage"`
}

// StatItem is one headline number.
type StatItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StatsSection groups headline numbers.
type StatsSection struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Items       []StatItem `json:"items"`
}

// ProductContent is the decoded form of a product/saas document.
type ProductContent struct {
	PageType     PageType             `json:"pageType"`
	SEO          *SEO                 `json:"seo,omitempty"`
	Hero         HeroSection          `json:"hero"`
	MainFeatures *MainFeaturesSection `json:"mainFeatures,omitempty"`
	Features     *FeaturesSection     `json:"features,omitempty"`
	Cta          *CtaSection          `json:"cta,omitempty"`
	Faqs         *FaqsSection         `json:"faqs,omitempty"`
	Pricing      *PricingSection      `json:"pricing,omitempty"`
	Testimonials *TestimonialSection  `json:"testimonials,omitempty"`
	Contact      *ContactSection      `json:"contact,omitempty"`
	Stats        *StatsSection        `json:"stats,omitempty"`
}

// ChannelLink is one external profile of a channel.
type ChannelLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

// ChannelInfo describes a creator channel.
type ChannelInfo struct {
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	SubscriberCount string        `json:"subscriberCount"`
	ProfileImage    string        `json:"profileImage"`
	BannerImage     string        `json:"bannerImage"`
	Links           []ChannelLink `json:"links,omitempty"`
}

// VideoEntry is one featured video.
type VideoEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	ViewCount   string `json:"viewCount"`
	Duration    string `json:"duration"`
	URL         string `json:"url"`
}

// YouTubeContent is the decoded form of a youtube document.
type YouTubeContent struct {
	PageType       PageType        `json:"pageType"`
	SEO            *SEO            `json:"seo,omitempty"`
	ChannelInfo    ChannelInfo     `json:"channelInfo"`
	FeaturedVideos []VideoEntry    `json:"featuredVideos"`
	Contact        *ContactSection `json:"contact,omitempty"`
}

// DecodeProduct decodes the document into the product/saas shape.
func (d *Document) DecodeProduct() (*ProductContent, error) {
	if d.PageType != PageProduct && d.PageType != PageSaaS {
		return nil, fmt.Errorf("document is %q, not product/saas", d.PageType)
	}
	raw, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var pc ProductContent
	if err := json.Unmarshal(raw, &pc); err != nil {
		return nil, fmt.Errorf("decoding product content: %w", err)
	}
	return &pc, nil
}

// DecodeYouTube decodes the document into the youtube shape.
func (d *Document) DecodeYouTube() (*YouTubeContent, error) {
	if d.PageType != PageYouTube {
		return nil, fmt.Errorf("document is %q, not youtube", d.PageType)
	}
	raw, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var yc YouTubeContent
	if err := json.Unmarshal(raw, &yc); err != nil {
		return nil, fmt.Errorf("decoding youtube content: %w", err)
	}
	return &yc, nil
}
