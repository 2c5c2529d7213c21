package main

import "github.com/theirongolddev/billu/cmd"

func main() {
	cmd.Execute()
}
