package v1

import (
	"fmt"
	"net/http"

	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RuleEditable represents all user configurable parameters
type RuleEditable struct {
	Priority uint   `json:"priority" example:"2" default:"0"`   // Rules with lower priority values are evaluated first
	Match    string `json:"match" example:"Uber*"`              // Glob pattern matched against the entry description
	Category string `json:"category" example:"Transport"`       // Category assigned on a match
}

func (editable RuleEditable) model() models.CategoryRule {
	return models.CategoryRule{
		Priority: editable.Priority,
		Match:    editable.Match,
		Category: editable.Category,
	}
}

type RuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/rules/2"` // The rule itself
}

type Rule struct {
	models.DefaultModel
	RuleEditable
	Links RuleLinks `json:"links"`
}

func newRule(c *gin.Context, model models.CategoryRule) Rule {
	url := c.GetString(string(models.DBContextURL))

	return Rule{
		DefaultModel: model.DefaultModel,
		RuleEditable: RuleEditable{
			Priority: model.Priority,
			Match:    model.Match,
			Category: model.Category,
		},
		Links: RuleLinks{
			Self: fmt.Sprintf("%s/v1/rules/%d", url, model.ID),
		},
	}
}

type RuleListResponse struct {
	Data  []Rule  `json:"data"`                                                            // List of rules
	Error *string `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

type RuleResponse struct {
	Data  *Rule   `json:"data"`                                                            // Data for the rule
	Error *string `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

// RegisterRuleRoutes registers the routes for category rules with the
// RouterGroup that is passed.
func RegisterRuleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRuleList)
		r.GET("", GetRules)
		r.POST("", CreateRule)
	}

	// Rule with ID
	{
		r.OPTIONS("/:id", OptionsRuleDetail)
		r.GET("/:id", GetRule)
		r.PATCH("/:id", UpdateRule)
		r.DELETE("/:id", DeleteRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Rules
// @Success		204
// @Router			/v1/rules [options]
func OptionsRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Rules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/rules/{id} [options]
func OptionsRuleDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.CategoryRule{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create rule
// @Description	Creates a new category rule. Rules categorize new ledger entries whose description matches their pattern.
// @Tags			Rules
// @Accept			json
// @Produce		json
// @Success		201		{object}	RuleResponse
// @Failure		400		{object}	RuleResponse
// @Failure		500		{object}	RuleResponse
// @Param			rule	body		RuleEditable	true	"Rule"
// @Router			/v1/rules [post]
func CreateRule(c *gin.Context) {
	var editable RuleEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	rule := editable.model()
	err = models.DB.Create(&rule).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	data := newRule(c, rule)
	c.JSON(http.StatusCreated, RuleResponse{Data: &data})
}

// @Summary		Get rules
// @Description	Returns the category rules in evaluation order
// @Tags			Rules
// @Produce		json
// @Success		200	{object}	RuleListResponse
// @Failure		500	{object}	RuleListResponse
// @Router			/v1/rules [get]
func GetRules(c *gin.Context) {
	var rules []models.CategoryRule
	err := models.DB.Order("priority ASC, id ASC").Find(&rules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Rule, 0)
	for _, rule := range rules {
		data = append(data, newRule(c, rule))
	}

	c.JSON(http.StatusOK, RuleListResponse{Data: data})
}

// @Summary		Get rule
// @Description	Returns a specific category rule
// @Tags			Rules
// @Produce		json
// @Success		200	{object}	RuleResponse
// @Failure		400	{object}	RuleResponse
// @Failure		404	{object}	RuleResponse
// @Failure		500	{object}	RuleResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/rules/{id} [get]
func GetRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	var rule models.CategoryRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	data := newRule(c, rule)
	c.JSON(http.StatusOK, RuleResponse{Data: &data})
}

// @Summary		Update rule
// @Description	Update an existing rule. Only values to be updated need to be specified.
// @Tags			Rules
// @Accept			json
// @Produce		json
// @Success		200		{object}	RuleResponse
// @Failure		400		{object}	RuleResponse
// @Failure		404		{object}	RuleResponse
// @Failure		500		{object}	RuleResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			rule	body		RuleEditable	true	"Rule"
// @Router			/v1/rules/{id} [patch]
func UpdateRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	var rule models.CategoryRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, RuleEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	var data RuleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&rule).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RuleResponse{
			Error: &s,
		})
		return
	}

	r := newRule(c, rule)
	c.JSON(http.StatusOK, RuleResponse{Data: &r})
}

// @Summary		Delete rule
// @Description	Deletes a rule. Entries that were already categorized keep their category.
// @Tags			Rules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/rules/{id} [delete]
func DeleteRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var rule models.CategoryRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&rule).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
