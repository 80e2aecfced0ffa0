// bbcode renders BBCode markup to HTML from the command line.
//
// Usage:
//
//	# Render a file to stdout
//	bbcode render post.bb
//
//	# Render stdin with template parameters into a file
//	cat post.bb | bbcode render - --params params.yaml --output post.html
//
//	# Dump the parsed tree
//	bbcode parse post.bb --format yaml
//
//	# Re-render whenever the source or params change
//	bbcode watch post.bb --output post.html --params params.yaml
//
//	# Serve POST /render and /metrics
//	bbcode serve --addr :8080
package main

func main() {
	Execute()
}
