/*
Package scan extracts inclusion and image references from a LaTeX source file.

	line ──► strip %… ──► comment state ──► live segments ──► input{…} / includegraphics{…}

Comment handling is a two-state machine (Normal, InComment):
  - everything after the first % on a line is dead
  - text before \begin{comment} on its own line is live; text after it is dead
    until the matching \end{comment}, which may sit later on the same line
  - an \end{comment} with no open block is reported and the text before it dropped
  - reaching end of file inside a block is reported

Targets are returned exactly as written, except that inclusion targets without
a .tex extension get one appended. No path resolution happens here.
*/
package scan
