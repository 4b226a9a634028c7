/*
Package config loads the optional project file that stores prune settings.

The format follows the file extension: .yaml/.yml, .hcl or .json. Unknown
fields are rejected. Command line flags override whatever the file sets.

	main: paper.tex
	destination: tex_cleaned
	extensions: [sty, cls, bst, bib, clo]
	compile:
	  enabled: true
	  command: latexmk
	  args: [-pdf]

The same in HCL:

	main        = "paper.tex"
	destination = "tex_cleaned"
	extensions  = ["sty", "cls", "bst", "bib", "clo"]

	compile {
	  enabled = true
	  command = "latexmk"
	  args    = ["-pdf"]
	}
*/
package config
