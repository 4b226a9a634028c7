/*
Package operation runs a prune end to end.

	+-------------+
	|  Prune      |
	+------+------+
	       |
	+------+------+     +-----------+
	|  collect    | --> |  status   |
	|  extras     | --> |  Manager  |
	+-------------+     +-----------+

🔄 Flow:
1. Create the destination next to the entry file
2. Trace the entry file and copy everything reachable
3. Copy auxiliary files by extension from the entry's directory
4. Return a Report with every copied file and every warning

Warnings are gathered in one diag.List for the whole run and handed back in
the Report, so callers decide how to surface them after the traversal.

🔍 Example:

	report, err := operation.Prune(ctx, operation.Options{
		FS:          osfs.New(root),
		Main:        "paper/main.tex",
		Destination: "tex_cleaned",
		Extensions:  extras.DefaultExtensions,
	})
*/
package operation
