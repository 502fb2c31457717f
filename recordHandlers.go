package main

import (
	"net/http"

	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/workflow"
	"github.com/gin-gonic/gin"
)

func listPurchasesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		filter := models.PurchaseFilter{
			Company: c.Query("company"),
			Brand:   c.Query("brand"),
			Search:  c.Query("search"),
			Range:   rng,
		}
		purchases, err := models.ListPurchases(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, purchases)
	}
}

func createPurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPurchase
		if !bindJSON(c, &input) {
			return
		}
		purchase, err := workflow.ProcessPurchase(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

func updatePurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewPurchase
		if !bindJSON(c, &input) {
			return
		}
		purchase, err := workflow.UpdatePurchase(c.Request.Context(), id, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

func deletePurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		purchase, err := workflow.DeletePurchase(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

func listSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		filter := models.SaleFilter{
			Customer: c.Query("customer"),
			Brand:    c.Query("brand"),
			Search:   c.Query("search"),
			Range:    rng,
		}
		sales, err := models.ListSales(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sales)
	}
}

func createSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSale
		if !bindJSON(c, &input) {
			return
		}
		transactionId, err := workflow.ProcessSale(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction_id": transactionId})
	}
}

func listReturnsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		returns, err := models.ListReturns(c.Request.Context(), rng)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, returns)
	}
}

func createReturnHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewReturn
		if !bindJSON(c, &input) {
			return
		}
		transactionId, err := workflow.ProcessReturn(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction_id": transactionId})
	}
}

func listTransfersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rng, ok := queryDateRange(c)
		if !ok {
			return
		}
		transfers, err := models.ListTransfers(c.Request.Context(), rng)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, transfers)
	}
}

func createTransferHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewTransfer
		if !bindJSON(c, &input) {
			return
		}
		transfer, err := workflow.ProcessTransfer(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, transfer)
	}
}

func customerPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPayment
		if !bindJSON(c, &input) {
			return
		}
		entry, err := workflow.RecordCustomerPayment(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func companyPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPayment
		if !bindJSON(c, &input) {
			return
		}
		entry, err := workflow.RecordCompanyPayment(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func manualCustomerEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewManualLedgerEntry
		if !bindJSON(c, &input) {
			return
		}
		entry, err := models.CreateManualCustomerEntry(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func manualCompanyEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewManualLedgerEntry
		if !bindJSON(c, &input) {
			return
		}
		entry, err := models.CreateManualCompanyEntry(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func deleteCustomerEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteCustomerLedgerEntry(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deleteCompanyEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := models.DeleteCompanyLedgerEntry(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
