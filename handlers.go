package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adiljeddiradja/Mykeuangan/pkg/store"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)

	data := r.Group("")
	data.Use(sessionMiddleware())
	data.GET("/wallets", listWalletsHandler)
	data.POST("/wallets", createWalletHandler)
	data.DELETE("/wallets/:id", deleteWalletHandler)
	data.GET("/categories", listCategoriesHandler)
	data.GET("/transactions", listTransactionsHandler)
	data.POST("/transactions", createTransactionHandler)
	data.DELETE("/transactions/:id", deleteTransactionHandler)
	data.GET("/summary", summaryHandler)
	data.GET("/summary/monthly", monthlySummaryHandler)
}

// sessionMiddleware resolves the optional bearer token into a store.Session.
// No token means local mode; a token that fails verification is rejected
// rather than silently downgraded to the device database.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set("session", store.Session{})
			c.Next()
			return
		}
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		uid, _ := claims["sub"].(string)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		c.Set("session", store.Session{UserID: uid})
		c.Next()
	}
}

func sessionFrom(c *gin.Context) store.Session {
	if v, ok := c.Get("session"); ok {
		if sess, ok := v.(store.Session); ok {
			return sess
		}
	}
	return store.Session{}
}

// respondError maps validation failures to 400 and everything else to a
// logged 500; the client gets a user-presentable message either way.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("storage error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
}

func registerHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := st.Firestore(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cloud mode unavailable"})
		return
	}
	if err := RegisterUser(c.Request.Context(), client, req.Email, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := st.Firestore(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cloud mode unavailable"})
		return
	}
	user, err := Authenticate(c.Request.Context(), client, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := issueToken(user)
	if err != nil {
		log.Printf("sign token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": gin.H{"id": user.ID, "email": user.Email}})
}

func listWalletsHandler(c *gin.Context) {
	accounts, err := st.Accounts(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func createWalletHandler(c *gin.Context) {
	var req store.NewAccount
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := st.AddAccount(c.Request.Context(), sessionFrom(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func deleteWalletHandler(c *gin.Context) {
	if err := st.DeleteAccount(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func listCategoriesHandler(c *gin.Context) {
	categories, err := st.Categories(c.Request.Context(), sessionFrom(c), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func listTransactionsHandler(c *gin.Context) {
	txs, err := st.Transactions(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func createTransactionHandler(c *gin.Context) {
	var req store.NewTransaction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := st.PostTransaction(c.Request.Context(), sessionFrom(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func deleteTransactionHandler(c *gin.Context) {
	if err := st.DeleteTransaction(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func summaryHandler(c *gin.Context) {
	sum, err := st.Summary(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func monthlySummaryHandler(c *gin.Context) {
	sum, err := st.MonthlySummary(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
