package uploads

// File is one document to be stored under a domain folder.
// Content is base64 encoded; a leading "data:...;base64," prefix
// (as browsers produce) is accepted and stripped by the server.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

type Request struct {
	Folder string `json:"folder"`
	Files  []File `json:"files"`
}

type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Files   []string `json:"files,omitempty"`
	Folder  string   `json:"folder,omitempty"`
}
