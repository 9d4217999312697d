package respond

// AdvisorRespond AI 顾问信息响应
type AdvisorRespond struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	CountryCode string   `json:"countryCode"`
	Flag        string   `json:"flag"`
	AvatarUrl   string   `json:"avatarUrl"`
	Greeting    string   `json:"greeting"`
	Specialties []string `json:"specialties"`
}
