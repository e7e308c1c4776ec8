/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/socraticchat/socratic/cmd"

func main() {
	cmd.Execute()
}
