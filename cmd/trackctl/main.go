package main

import "skillrise/api/cmd/trackctl/arg"

func main() {
	arg.Execute()
}
