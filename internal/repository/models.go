package repository

// AllModels lists the GORM models, in dependency order, for development auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&HotelModel{},
		&AmenityModel{},
		&HotelAmenityModel{},
		&RoomModel{},
		&BookingModel{},
		&ReviewModel{},
	}
}
