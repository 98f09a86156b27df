package model

// RawDocument is a fetched quote page kept for re-parsing.
type RawDocument struct {
	ID        string
	SourceURL string
	Checksum  string
	Content   string
	FetchedAt int64
}
