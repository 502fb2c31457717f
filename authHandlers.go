package main

import (
	"net/http"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}

		token, account, err := models.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"username": account.Username,
			"role":     account.Role,
		})
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token header is required"})
			return
		}
		if err := models.Logout(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewAccount
		if !bindJSON(c, &input) {
			return
		}
		account, err := models.CreateAccount(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		fields := logrus.Fields{"username": account.Username}
		if creatorId, ok := utils.GetUserIdFromContext(c.Request.Context()); ok {
			fields["createdBy"] = creatorId
		}
		config.GetLogger().WithFields(fields).Info("account registered")

		c.JSON(http.StatusOK, account)
	}
}
