package main

import "podcatch/cmd"

func main() {
	cmd.Execute()
}
