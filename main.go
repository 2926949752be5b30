package main

import "github.com/moontasirabtahee/image-resizer-tool/cmd"

func main() {
	cmd.Execute()
}
