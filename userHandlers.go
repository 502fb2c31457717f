package main

import (
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON binds the body and, when binding fails on validator rules, reports
// the failing field -> rule map back to the caller.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(ve)})
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	}
	return false
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// queryDateRange reads the optional from/to yyyy-mm-dd query params.
func queryDateRange(c *gin.Context) (models.DateRange, bool) {
	var rng models.DateRange
	if from := c.Query("from"); from != "" {
		d, err := utils.ParseDateString(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be yyyy-mm-dd"})
			return rng, false
		}
		rng.From = d
	}
	if to := c.Query("to"); to != "" {
		d, err := utils.ParseDateString(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be yyyy-mm-dd"})
			return rng, false
		}
		rng.To = d
	}
	return rng, true
}

func listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := models.UserType(c.Query("type"))
		if userType != "" && !userType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be Customer or Company"})
			return
		}
		users, err := models.ListUsers(c.Request.Context(), userType, c.Query("search"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if !bindJSON(c, &input) {
			return
		}
		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func updateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewUser
		if !bindJSON(c, &input) {
			return
		}
		user, err := models.UpdateUser(c.Request.Context(), id, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func deleteUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		user, err := models.DeleteUser(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func phoneDirectoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := models.UserType(c.Query("type"))
		if !userType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be Customer or Company"})
			return
		}
		phones, err := models.PhoneDirectory(c.Request.Context(), userType)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, phones)
	}
}
