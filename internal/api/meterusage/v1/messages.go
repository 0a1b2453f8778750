// Package meterusagev1 defines the meterusage.v1 wire messages and the gRPC
// service descriptor. Messages travel with the JSON codec registered in this
// package; timestamps use the well-known protobuf Timestamp.
package meterusagev1

import "google.golang.org/protobuf/types/known/timestamppb"

type Reading struct {
	ReadingDate *timestamppb.Timestamp `json:"readingDate,omitempty"`
	Cumulative  float64                `json:"cumulative"`
	Unit        string                 `json:"unit,omitempty"`
}

func (x *Reading) GetReadingDate() *timestamppb.Timestamp {
	if x == nil {
		return nil
	}
	return x.ReadingDate
}

func (x *Reading) GetCumulative() float64 {
	if x == nil {
		return 0
	}
	return x.Cumulative
}

func (x *Reading) GetUnit() string {
	if x == nil {
		return ""
	}
	return x.Unit
}

type ListReadingsRequest struct {
	Start     *timestamppb.Timestamp `json:"start,omitempty"`
	End       *timestamppb.Timestamp `json:"end,omitempty"`
	PageSize  int32                  `json:"pageSize,omitempty"`
	PageToken string                 `json:"pageToken,omitempty"`
}

func (x *ListReadingsRequest) GetStart() *timestamppb.Timestamp {
	if x == nil {
		return nil
	}
	return x.Start
}

func (x *ListReadingsRequest) GetEnd() *timestamppb.Timestamp {
	if x == nil {
		return nil
	}
	return x.End
}

func (x *ListReadingsRequest) GetPageSize() int32 {
	if x == nil {
		return 0
	}
	return x.PageSize
}

func (x *ListReadingsRequest) GetPageToken() string {
	if x == nil {
		return ""
	}
	return x.PageToken
}

type ListReadingsResponse struct {
	Readings      []*Reading `json:"readings"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

func (x *ListReadingsResponse) GetReadings() []*Reading {
	if x == nil {
		return nil
	}
	return x.Readings
}

func (x *ListReadingsResponse) GetNextPageToken() string {
	if x == nil {
		return ""
	}
	return x.NextPageToken
}

// CreateReadingRequest carries one reading. An empty unit means kWh.
type CreateReadingRequest struct {
	Reading *Reading `json:"reading,omitempty"`
}

func (x *CreateReadingRequest) GetReading() *Reading {
	if x == nil {
		return nil
	}
	return x.Reading
}

type CreateReadingResponse struct {
	Reading *Reading `json:"reading,omitempty"`
}

func (x *CreateReadingResponse) GetReading() *Reading {
	if x == nil {
		return nil
	}
	return x.Reading
}

type GetMonthlyUsageRequest struct {
	Start *timestamppb.Timestamp `json:"start,omitempty"`
	End   *timestamppb.Timestamp `json:"end,omitempty"`
}

func (x *GetMonthlyUsageRequest) GetStart() *timestamppb.Timestamp {
	if x == nil {
		return nil
	}
	return x.Start
}

func (x *GetMonthlyUsageRequest) GetEnd() *timestamppb.Timestamp {
	if x == nil {
		return nil
	}
	return x.End
}

// MonthlyUsage is the usage for one calendar month. Month is formatted "Jan-2006".
type MonthlyUsage struct {
	Month      string  `json:"month"`
	Cumulative float64 `json:"cumulative"`
	Unit       string  `json:"unit,omitempty"`
}

func (x *MonthlyUsage) GetMonth() string {
	if x == nil {
		return ""
	}
	return x.Month
}

func (x *MonthlyUsage) GetCumulative() float64 {
	if x == nil {
		return 0
	}
	return x.Cumulative
}

func (x *MonthlyUsage) GetUnit() string {
	if x == nil {
		return ""
	}
	return x.Unit
}

type GetMonthlyUsageResponse struct {
	Usage []*MonthlyUsage `json:"usage"`
}

func (x *GetMonthlyUsageResponse) GetUsage() []*MonthlyUsage {
	if x == nil {
		return nil
	}
	return x.Usage
}
