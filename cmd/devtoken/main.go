// Command devtoken mints an identity token signed with the server's identity
// secret. It stands in for the identity provider in local setups.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dmitrijs2005/promptify/internal/flagx"
	"github.com/dmitrijs2005/promptify/internal/server/auth"
	"github.com/dmitrijs2005/promptify/internal/server/config"
	"github.com/google/uuid"
)

func main() {
	var id auth.Identity
	secret := "secretKey"
	flagx.NewEnv(config.EnvPrefix).String(config.EnvIdentitySecret, &secret)

	flag.StringVar(&id.ID, "sub", uuid.NewString(), "subject (profile id)")
	flag.StringVar(&id.Email, "email", "", "email claim")
	flag.StringVar(&id.DisplayName, "name", "", "display name claim")
	flag.StringVar(&id.AvatarURL, "avatar", "", "avatar url claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token validity")
	flag.Parse()

	token, err := auth.GenerateToken(id, []byte(secret), *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
}
