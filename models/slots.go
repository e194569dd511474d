package models

// SlotAvailability describes one fixed-size increment of the business-hours
// window and whether another booking would still be admitted into it.
type SlotAvailability struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Booked    int    `json:"booked"`
	Available bool   `json:"available"`
}
