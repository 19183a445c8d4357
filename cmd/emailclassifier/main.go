package main

import (
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/cmd/emailclassifier/cmd"
)

func main() {
	cmd.Execute()
}
