package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:200;unique;not null" json:"username"`
	Email        string    `gorm:"size:255;unique;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"        json:"-"`
	IsVerified   bool      `gorm:"default:false"            json:"is_verified"`
	JoinDate     time.Time `gorm:"autoCreateTime"           json:"join_date"`
}

type Business struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"              json:"id"`
	BusinessName string `gorm:"size:200;unique;not null"              json:"businessname"`
	City         string `gorm:"size:255;not null;default:unspecified" json:"city"`
	Region       string `gorm:"size:255;not null;default:unspecified" json:"region"`
	Description  string `gorm:"type:text"                             json:"business_description"`
	Logo         string `gorm:"size:255;not null;default:default.jpg" json:"logo"`
	OwnerID      uint   `gorm:"index;not null"                        json:"owner_id"`
}

type Product struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement"                     json:"id"`
	Name               string    `gorm:"size:200;index;not null"                      json:"name"`
	Category           string    `gorm:"size:255;index;default:unspecified"           json:"category"`
	OriginalPrice      float64   `gorm:"not null"                                     json:"original_price"`
	NewPrice           float64   `json:"new_price"`
	PercentageDiscount int       `json:"percentage_discount"`
	OfferExpires       time.Time `json:"offer_expires"`
	Image              string    `gorm:"size:255;not null;default:productDefault.jpg" json:"product_image"`
	BusinessID         uint      `gorm:"index;not null"                               json:"business_id"`
	DatePublished      time.Time `gorm:"autoCreateTime"                               json:"date_published"`
}
