package main

import "github.com/Abaw1984/azload-sub000/cmd"

func main() {
	cmd.Execute()
}
