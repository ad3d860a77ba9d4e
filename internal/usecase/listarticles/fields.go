package listarticles

// Physical field names of the article document mapping.
const (
	fieldText              = "text"
	fieldArticleType       = "articleType"
	fieldUserID            = "userId"
	fieldAppID             = "appId"
	fieldReplyCount        = "normalArticleReplyCount"
	fieldReplyRequestCount = "replyRequestCount"
	fieldCreatedAt         = "createdAt"
	fieldUpdatedAt         = "updatedAt"
	fieldLastRequestedAt   = "lastRequestedAt"
)

// Nested sub-document paths and their scoped fields.
const (
	pathReplies         = "articleReplies"
	fieldReplyStatus    = "articleReplies.status"
	fieldReplyCreatedAt = "articleReplies.createdAt"
	fieldReplyUserID    = "articleReplies.userId"
	fieldReplyType      = "articleReplies.replyType"
	fieldReplyPositive  = "articleReplies.positiveFeedbackCount"
	fieldReplyNegative  = "articleReplies.negativeFeedbackCount"

	pathCategories        = "articleCategories"
	fieldCategoryStatus   = "articleCategories.status"
	fieldCategoryID       = "articleCategories.categoryId"
	fieldCategoryPositive = "articleCategories.positiveFeedbackCount"
	fieldCategoryNegative = "articleCategories.negativeFeedbackCount"

	pathHyperlinks        = "hyperlinks"
	fieldHyperlinkURL     = "hyperlinks.url"
	fieldHyperlinkTitle   = "hyperlinks.title"
	fieldHyperlinkSummary = "hyperlinks.summary"

	pathAttachments     = "attachments"
	fieldAttachmentHash = "attachments.hash"
)
