package entity

// SelectedFile is a document the user picked for upload.
type SelectedFile struct {
	Name    string
	Content []byte
	Size    int64
}

func NewSelectedFile(name string, content []byte) SelectedFile {
	return SelectedFile{
		Name:    name,
		Content: content,
		Size:    int64(len(content)),
	}
}

// FileNames returns the names of files in selection order.
func FileNames(files []SelectedFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}
