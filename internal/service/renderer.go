package service

// Renderer converts post content into the HTML stored alongside it. The
// actual markdown/HTML pipeline lives outside this service; the default
// implementation stores content as-is.
type Renderer interface {
	Render(content string, contentType string) string
}

type passthroughRenderer struct{}

func (passthroughRenderer) Render(content string, contentType string) string {
	return content
}
