package version

const (
	// DatasetFormat is the version of the dataset document structure.
	// Documents without a version field are read as this version.
	DatasetFormat = "0.1"

	// App is the techstack-lens release version
	App = "0.3.0"
)
