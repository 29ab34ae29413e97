package analysis

// SubmitTextRequest represents a pasted-transcript submission. Multipart
// uploads carry the media under the "file" field instead of Text.
type SubmitTextRequest struct {
	Text     string `json:"text" form:"text" validate:"required,max=1000000"`
	FileName string `json:"file_name,omitempty" form:"file_name" validate:"omitempty,max=255"`
}

// ExportQuery represents query parameters of the export endpoint
type ExportQuery struct {
	Format   string `query:"format" validate:"omitempty,oneof=text txt markdown md json pdf"`
	Sections string `query:"sections" validate:"omitempty,max=200"`
}
