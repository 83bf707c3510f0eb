// Command primerscan searches a reference genome for primer binding sites
// and assembles PCR amplicons from them.
package main

import "primerscan/internal/appshell"

func main() {
	appshell.Main(Execute)
}
