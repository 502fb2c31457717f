package main

import (
	"net/http"

	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/gin-gonic/gin"
)

func stockSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		filter := models.StockFilter{
			Search: c.Query("search"),
			Brand:  c.Query("brand"),
			Range:  rng,
		}
		if day := c.Query("date"); day != "" {
			d, err := utils.ParseDateString(day)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
				return
			}
			filter.Date = &d
		}
		rows, err := models.GetStockSummary(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func inventoryTotalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		totals, err := models.GetInventoryTotals(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, totals)
	}
}

func customerStatementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		statement, err := models.GetCustomerStatement(c.Request.Context(), c.Param("name"), rng)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, statement)
	}
}

func companyStatementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		statement, err := models.GetCompanyStatement(c.Request.Context(), c.Param("name"), rng)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, statement)
	}
}

func customerSummariesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := models.GetCustomerSummaries(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func companySummariesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := models.GetCompanySummaries(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func customerDuesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		dues, err := models.GetCustomerPendingDues(c.Request.Context(), rng)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, dues)
	}
}

func companyDuesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		dues, err := models.GetCompanyPendingDues(c.Request.Context(), rng)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, dues)
	}
}

func profitLossHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		report, err := models.GetProfitLossReport(c.Request.Context(), rng)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func listCatalogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := models.ListCatalogItems(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func getCatalogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		item, err := models.GetCatalogItem(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func createCatalogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCatalogItem
		if !bindJSON(c, &input) {
			return
		}
		item, err := models.CreateCatalogItem(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteCatalogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteCatalogItem(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func catalogLookupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		company := c.Query("company")
		if company == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "company is required"})
			return
		}
		values, err := models.CatalogLookup(c.Request.Context(), company, c.Query("brand"), c.Query("model"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, values)
	}
}
