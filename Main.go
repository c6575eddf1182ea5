package main

import "ecommerce-backend/cmd"

func main() {
	cmd.Execute()
}
