package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adiljeddiradja/Mykeuangan/models"
)

// User accounts live in Firestore under users/{uid}; there is no local user
// table because an unauthenticated device is, by definition, in local mode.

func RegisterUser(ctx context.Context, client *firestore.Client, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("valid email required")
	}
	if len(password) < 6 { // basic password policy
		return fmt.Errorf("password too short (min 6)")
	}
	// pre-check existing (optimistic; Firestore has no unique constraint)
	existing, err := client.Collection("users").Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("user already exists")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := client.Collection("users").Doc(uuid.NewString()).Set(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func Authenticate(ctx context.Context, client *firestore.Client, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	snaps, err := client.Collection("users").Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil || len(snaps) == 0 {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	var user models.User
	if err := snaps[0].DataTo(&user); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	user.ID = snaps[0].Ref.ID
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// issueToken signs a session token whose subject is the Firestore uid; the
// data handlers turn that uid into a store.Session.
func issueToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
