package models

type Genre struct {
	ID   string `json:"id"`
	Name string `json:"genrename"`
}
