package main

import "github.com/naka-gawa/contrib-insights/cmd"

func main() {
	cmd.Execute()
}
