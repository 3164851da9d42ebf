package main

import "github.com/KaramelBytes/housing-eda/cmd"

func main() {
	cmd.Execute()
}
