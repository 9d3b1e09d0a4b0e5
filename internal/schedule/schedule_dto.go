package schedule

type CreateServiceTypeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type CreateServiceRequest struct {
	ServiceTypeID string `json:"service_type_id" binding:"required,uuid"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Notes         string `json:"notes"`
}

type ServiceTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ServiceResponse struct {
	ID              string `json:"id"`
	ServiceTypeID   string `json:"service_type_id"`
	ServiceTypeName string `json:"service_type_name"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Notes           string `json:"notes,omitempty"`
	Label           string `json:"label"`
}

func mapType(st ServiceType) ServiceTypeResponse {
	resp := ServiceTypeResponse{ID: st.ID.String(), Name: st.Name}
	if st.Description != nil {
		resp.Description = *st.Description
	}
	return resp
}

func MapService(r ServiceRecord) ServiceResponse {
	resp := ServiceResponse{
		ID:              r.ID.String(),
		ServiceTypeID:   r.ServiceTypeID.String(),
		ServiceTypeName: r.ServiceTypeName,
		Date:            r.ServiceDate.Format(DateLayout),
		Time:            r.ServiceTime,
		Label:           r.Label(),
	}
	if r.Notes != nil {
		resp.Notes = *r.Notes
	}
	return resp
}

func mapServices(recs []ServiceRecord) []ServiceResponse {
	res := make([]ServiceResponse, len(recs))
	for i, r := range recs {
		res[i] = MapService(r)
	}
	return res
}
