package entity

// PageState — что открыто во вкладке в данный момент.
type PageState struct {
	URL   string
	Title string
}
