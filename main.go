// main.go

package main

import "github.com/GaspardD78/bmcuflash/cmd"

func main() {
	cmd.Execute()
}
