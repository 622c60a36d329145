// Command hyperramsim runs HyperRAM controller scenarios.
package main

import "github.com/sarchlab/hyperram/hyperramsim/cmd"

func main() {
	cmd.Execute()
}
