package main

//go:generate swag init -g cmd/bookd/main.go -o docs

// @title           Bookd Settlement API
// @version         0.1.0
// @description     Wager market lifecycle, bet ledger, settlement and claims.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
