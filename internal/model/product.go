package model

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/flicky/gourmethub-api/internal/validation"
)

const (
	PlaceholderImage = "/placeholder-food.jpg"
	DefaultBrand     = "GourmetHub"

	MaxImages           = 10
	MaxTitleLen         = 200
	MaxShortDescription = 300
	MaxRating           = 5
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases text and joins alphanumeric runs with single dashes.
func Slugify(text string) string {
	s := nonSlugRe.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}

// DiscountPercentage returns the whole-number percentage saved by
// discountPrice off price, or 0 when there is no discount.
func DiscountPercentage(price, discountPrice decimal.Decimal) int {
	if discountPrice.IsZero() || !price.IsPositive() {
		return 0
	}
	return int(price.Sub(discountPrice).Div(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// AverageRating is the arithmetic mean of the review ratings.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}

// EffectivePrice is the price a shopper pays: the discount price when set.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid && p.DiscountPrice.Decimal.IsPositive() {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return PlaceholderImage
	}
	return p.Images[0]
}

// AddReview appends r and recomputes NumReviews and Rating.
func (p *Product) AddReview(r Review) {
	p.Reviews = append(p.Reviews, r)
	p.NumReviews = len(p.Reviews)
	p.Rating = AverageRating(p.Reviews)
}

// Normalize fills defaults and derives the slug from the title.
func (p *Product) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = Slugify(p.Title)
	if len(p.Images) == 0 {
		p.Images = []string{PlaceholderImage}
	}
	if p.Brand == "" {
		p.Brand = DefaultBrand
	}
	if p.Unit == "" {
		p.Unit = UnitPiece
	}
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	if p.Allergens == nil {
		p.Allergens = []Allergen{}
	}
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
}

// Validate checks every persisted constraint of a product.
func (p *Product) Validate() validation.Errors {
	errs := validation.Errors{}

	errs.Required("title", p.Title)
	errs.Check(utf8.RuneCountInString(p.Title) <= MaxTitleLen, "title", "Title cannot be more than 200 characters")
	errs.Check(p.Slug != "", "slug", "Title must contain at least one letter or digit")
	errs.Required("description", p.Description)
	errs.Required("shortDescription", p.ShortDescription)
	errs.Check(utf8.RuneCountInString(p.ShortDescription) <= MaxShortDescription,
		"shortDescription", "Short description cannot be more than 300 characters")

	errs.Check(!p.Price.IsNegative(), "price", "Price cannot be negative")
	if p.DiscountPrice.Valid {
		d := p.DiscountPrice.Decimal
		errs.Check(!d.IsNegative(), "discountPrice", "Discount price cannot be negative")
		errs.Check(d.LessThan(p.Price), "discountPrice", "Discount price must be less than regular price")
	}

	errs.Check(len(p.Images) <= MaxImages, "images", "Cannot have more than 10 images")
	if _, err := ParseCategory(string(p.Category)); err != nil {
		errs.Add("category", err.Error())
	}
	if _, err := ParseUnit(string(p.Unit)); err != nil {
		errs.Add("unit", err.Error())
	}
	for _, a := range p.Allergens {
		if _, err := ParseAllergen(string(a)); err != nil {
			errs.Add("allergens", err.Error())
		}
	}
	errs.Required("brand", p.Brand)
	errs.Check(p.Stock >= 0, "stock", "Stock cannot be negative")
	errs.Check(p.Rating >= 0 && p.Rating <= MaxRating, "rating", "Rating must be between 0 and 5")
	errs.Check(p.NumReviews == len(p.Reviews), "numReviews", "Review count does not match reviews")

	if n := p.NutritionalInfo; n != nil {
		errs.Check(n.Calories >= 0 && n.Protein >= 0 && n.Carbohydrates >= 0 && n.Fat >= 0 && n.Fiber >= 0,
			"nutritionalInfo", "Nutritional values cannot be negative")
	}
	return errs
}

// ValidateReview checks a review before it is attached to a product.
func ValidateReview(r Review) validation.Errors {
	errs := validation.Errors{}
	errs.Required("userId", r.UserID)
	errs.Required("userName", r.UserName)
	errs.Required("comment", r.Comment)
	errs.Check(r.Rating >= 1 && r.Rating <= MaxRating, "rating", "Rating must be between 1 and 5")
	return errs
}
