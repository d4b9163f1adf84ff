package seeder

// Defaults seeds demo employers and job seekers, then reviews for them.
func Defaults(password string) []Seeder {
	return []Seeder{
		AccountsSeeder{Password: password},
		ReviewsSeeder{},
	}
}
