/*
Package status owns the destination tree.

	+-----------+           +-----------+
	|  collect  |  CopyFile |  Manager  |
	|  extras   | --------> | (billy fs)|
	+-----------+           +-----------+

🎯 Purpose:
- Copies files into the destination, creating parent directories
- Writes atomically (temp file + rename)
- Skips the write when the destination already holds identical bytes
- Tracks every copied file with its status (new, modified, unchanged)

Re-running a prune over an unchanged source tree therefore reports every file
as unchanged and leaves the destination byte for byte identical.
*/
package status
