package main

import "github.com/chrisdamba/foodspend/cmd"

func main() {
	cmd.Execute()
}
