package models

const (
	UnknownRestaurant = "Unknown"
	UnknownItem       = "Unknown Item"
	OtherCuisine      = "Other"
	NotAvailable      = "N/A"

	OutputFormatConsole = "console"
	OutputFormatJSON    = "json"
	OutputFormatCSV     = "csv"
	OutputFormatParquet = "parquet"

	OutputDestinationLocal = "local"
	OutputDestinationS3    = "s3"
)
