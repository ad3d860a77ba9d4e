package domain

// ArticleType classifies what kind of content an article carries.
type ArticleType string

// Known article types.
const (
	ArticleText  ArticleType = "TEXT"
	ArticleImage ArticleType = "IMAGE"
	ArticleVideo ArticleType = "VIDEO"
	ArticleAudio ArticleType = "AUDIO"
)

// IsValid reports whether t is a known article type.
func (t ArticleType) IsValid() bool {
	switch t {
	case ArticleText, ArticleImage, ArticleVideo, ArticleAudio:
		return true
	}
	return false
}

// ReplyType classifies an article reply's verdict.
type ReplyType string

// Known reply types.
const (
	ReplyRumor       ReplyType = "RUMOR"
	ReplyNotRumor    ReplyType = "NOT_RUMOR"
	ReplyOpinionated ReplyType = "OPINIONATED"
	ReplyNotArticle  ReplyType = "NOT_ARTICLE"
)

// IsValid reports whether t is a known reply type.
func (t ReplyType) IsValid() bool {
	switch t {
	case ReplyRumor, ReplyNotRumor, ReplyOpinionated, ReplyNotArticle:
		return true
	}
	return false
}

// Status values for articles and their sub-documents.
const (
	StatusNormal  = "NORMAL"
	StatusBlocked = "BLOCKED"
	StatusDeleted = "DELETED"
)

// MediaKind classifies fetched media for content hashing.
// Kind detection is declared, not sniffed from content: every fetched
// attachment is currently treated as an image.
type MediaKind string

// Known media kinds.
const (
	MediaImage MediaKind = "IMAGE"
)

// Caller identifies the requesting user and application scope.
type Caller struct {
	UserID string
	AppID  string
}

// Article is the subset of a stored article document this service reads back:
// the owning user and application scope of a referenced article, plus identity.
type Article struct {
	ID     string
	UserID string
	AppID  string
}
