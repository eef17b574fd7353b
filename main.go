package main

import "github.com/atikulmunna/gastroguard/internal/cmd"

func main() {
	cmd.Execute()
}
