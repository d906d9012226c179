/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/classhub/gateway/cmd"

func main() {
	cmd.Execute()
}
