package main

import "lovespace-backend/cmd"

func main() {
	cmd.Run()
}
