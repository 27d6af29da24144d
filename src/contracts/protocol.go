package contracts

// Version is the version emitted by the resource. The resource has no real
// versions; Status carries a summary of what the put did.
type Version struct {
	Status string `json:"status"`
}

// MetadataField is one name/value pair shown next to the version in the UI.
type MetadataField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CheckRequest is read from stdin by /opt/resource/check.
type CheckRequest struct {
	Source  *Source  `json:"source"`
	Version *Version `json:"version"`
}

// CheckResponse is the list of new versions, oldest first.
type CheckResponse []Version

// InRequest is read from stdin by /opt/resource/in.
type InRequest struct {
	Source  *Source        `json:"source"`
	Version *Version       `json:"version"`
	Params  map[string]any `json:"params,omitempty"`
}

// InResponse is written to stdout by /opt/resource/in.
type InResponse struct {
	Version  Version         `json:"version"`
	Metadata []MetadataField `json:"metadata,omitempty"`
}

// OutRequest is read from stdin by /opt/resource/out.
type OutRequest struct {
	Source *Source    `json:"source"`
	Params *OutParams `json:"params"`
}

// OutResponse is written to stdout by /opt/resource/out.
type OutResponse struct {
	Version  Version         `json:"version"`
	Metadata []MetadataField `json:"metadata,omitempty"`
}
