package core

// Variant selects the article form a run produces.
type Variant string

const (
	// VariantPremium is the long-form path: research, outline, full draft.
	VariantPremium Variant = "premium"
	// VariantNews is the short-form path: research, single 300-400 word piece.
	VariantNews Variant = "news"
)

// TopicSource selects how the run obtains its topic candidate.
type TopicSource string

const (
	// SourceAutomatic discovers the topic from the news-aggregation backend.
	SourceAutomatic TopicSource = "automatic"
	// SourceManual uses an operator-supplied topic.
	SourceManual TopicSource = "manual"
	// SourceSuggested asks the research model to propose topics and picks one.
	SourceSuggested TopicSource = "suggested"
)

// DraftMode selects how the premium variant turns an outline into a draft.
type DraftMode string

const (
	// DraftWhole generates the article as one document observing the outline.
	DraftWhole DraftMode = "whole"
	// DraftSections researches and generates each outline section individually,
	// concatenating the results in outline order.
	DraftSections DraftMode = "sections"
)

// Stage identifies a pipeline stage for outcome reporting.
type Stage string

const (
	StageTopic    Stage = "topic"
	StageResearch Stage = "research"
	StageOutline  Stage = "outline"
	StageDraft    Stage = "draft"
	StageTitle    Stage = "title"
	StageSanitize Stage = "sanitize"
	StageTaxonomy Stage = "taxonomy"
	StageMedia    Stage = "media"
	StagePublish  Stage = "publish"
)

// Policy tells the orchestrator how to treat a stage failure.
type Policy int

const (
	// Fatal aborts the run and reports the stage name.
	Fatal Policy = iota
	// BestEffort degrades to a safe default and the run continues.
	BestEffort
)

// StagePolicies is the failure policy for every stage. Keeping the
// classification in one table makes the fail-fast contract auditable.
var StagePolicies = map[Stage]Policy{
	StageTopic:    Fatal,
	StageResearch: Fatal,
	StageOutline:  Fatal,
	StageDraft:    Fatal,
	StageTitle:    BestEffort,
	StageSanitize: Fatal,
	StageTaxonomy: BestEffort,
	StageMedia:    BestEffort,
	StagePublish:  Fatal,
}

// TopicCandidate is the single news/subject item a run turns into an article.
type TopicCandidate struct {
	Title      string `json:"title"`       // Headline or main idea (required)
	URL        string `json:"url"`         // Canonical source URL (optional)
	Snippet    string `json:"snippet"`     // Short context fragment (optional)
	SourceName string `json:"source_name"` // Originating source name
	ImageURL   string `json:"image_url"`   // Remote image reference (optional)
	ImageData  []byte `json:"-"`           // Already-uploaded binary (optional, wins over ImageURL)
	ImageMIME  string `json:"-"`           // MIME type of ImageData
}

// HasImage reports whether the candidate carries any image reference.
func (t TopicCandidate) HasImage() bool {
	return len(t.ImageData) > 0 || t.ImageURL != ""
}

// Section is one entry of a parsed article outline. Order is significant.
type Section struct {
	Level string `json:"level"` // Heading level, "h2" or "h3"
	Title string `json:"title"` // Section title text
	Desc  string `json:"desc"`  // One-to-two sentence description, may be empty
}

// Draft is a generated article: the post title and its HTML body.
type Draft struct {
	Title string `json:"title"` // Post title, extracted from the leading <h2>
	Body  string `json:"body"`  // HTML body without the title heading
}

// PublishPayload is the terminal artifact sent to the content backend.
type PublishPayload struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Status        string `json:"status"`
	Categories    []int  `json:"categories"`
	Tags          []int  `json:"tags"`
	FeaturedMedia int    `json:"featured_media,omitempty"`
	Author        int    `json:"author,omitempty"`
}

// RunOptions configures a single pipeline run.
type RunOptions struct {
	Variant          Variant         // premium or news
	Source           TopicSource     // automatic, manual or suggested
	DraftMode        DraftMode       // whole or sections (premium only)
	ManualTopic      *TopicCandidate // Required when Source is manual
	CategoryOverride int             // Explicit category id, 0 means resolve
}

// Outcome is the single human-readable result of a run.
type Outcome struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message"`
	Link        string `json:"link,omitempty"`         // Published article address on success
	FailedStage Stage  `json:"failed_stage,omitempty"` // Stage that broke the run on failure
}
