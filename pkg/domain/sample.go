package domain

// SampleSpec describes one of the bundled public-domain classics the app can
// auto-index into a fresh store, together with the metadata attached on import.
type SampleSpec struct {
	Path   string
	Title  string
	Author string
	Year   int
}

// Samples is the fixed list of classics looked for in the samples directory.
var Samples = []SampleSpec{
	{Path: "Pride_and_Prejudice.txt", Title: "Pride and Prejudice", Author: "Jane Austen", Year: 1813},
	{Path: "Adventures_of_Sherlock_Holmes.txt", Title: "The Adventures of Sherlock Holmes", Author: "Arthur Conan Doyle", Year: 1892},
	{Path: "Alices_Adventures_in_Wonderland.txt", Title: "Alice's Adventures in Wonderland", Author: "Lewis Carroll", Year: 1865},
	{Path: "Moby_Dick.txt", Title: "Moby-Dick", Author: "Herman Melville", Year: 1851},
}

// Metadata returns the custom metadata recorded when the sample is imported.
func (s SampleSpec) Metadata(localPath string) []CustomMetadata {
	return []CustomMetadata{
		StringMeta("title", s.Title),
		StringMeta("author", s.Author),
		NumericMeta("year", float64(s.Year)),
		StringMeta("local_path", localPath),
	}
}
