package main

import "github.com/saadjs/fitweek/cmd/fitweek"

func main() {
	fitweek.Execute()
}
