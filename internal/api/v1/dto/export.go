package dto

// ExportQuery selects what GET /api/v1/export writes and in which format.
type ExportQuery struct {
	Format     string `form:"format,default=xlsx" binding:"omitempty,oneof=xlsx csv json"`
	Collection string `form:"collection"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=10000"`
}
