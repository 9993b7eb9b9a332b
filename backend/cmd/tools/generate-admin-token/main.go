package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/jwt"
)

func main() {
	var configFolder string
	var userId int64
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.Int64Var(&userId, "user_id", 1, "id recorded in the token")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	token, err := jwt.New(cfg.JwtKey(), cfg.JwtTTL()).NewToken(domain.User{Id: userId, Admin: true})
	if err != nil {
		log.Fatalf("Failed to generate admin token: %v", err)
	}

	fmt.Println("=================================================")
	fmt.Println("  Moderator token (HS256)")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Printf("Valid for %s. Use it as:\n", cfg.JwtTTL())
	fmt.Printf("  Authorization: Bearer %s\n", token)
	fmt.Println("=================================================")
}
