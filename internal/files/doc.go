// Package files locates transaction exports on disk.
//
// Discovery lists the CSV and XLSX files of a directory and resolves an
// input path to a single file. When the input names a directory, the most
// recently modified export inside it is analyzed. Relative paths that do
// not exist from the working directory are looked up under the data
// directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	input, err := discovery.ResolveInput("exports")
package files
