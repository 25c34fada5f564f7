package server

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Benkess/CrossSim/internal/logging"
	"github.com/Benkess/CrossSim/pkg/agent"
	"github.com/Benkess/CrossSim/pkg/geo"
	"github.com/Benkess/CrossSim/pkg/validation"
	"github.com/Benkess/CrossSim/pkg/world"
)

// pointBody is the JSON shape of a world coordinate in request bodies.
type pointBody struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p pointBody) point() geo.Point2D { return geo.Pt(p.X, p.Y) }

// parseDocument decodes the request body as a loose document map, the
// same shape the scenario file codecs consume. An empty body is an
// empty document: entity loaders fill in every default.
func parseDocument(c *fiber.Ctx) (map[string]any, error) {
	doc := map[string]any{}
	if len(c.Body()) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(c.Body(), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return doc, nil
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"clients": s.hub.clientCount(),
	})
}

// ---- Scenario ----

func (s *Server) handleGetScenario(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	return c.JSON(s.session.scenario.ToMap())
}

func (s *Server) handleScenarioSummary(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	return c.JSON(s.session.scenario.Summary())
}

func (s *Server) handleScenarioValidation(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	report := s.session.scenario.Validate()
	report.Merge(validation.ValidateEnvironment(s.session.env))
	return c.JSON(report)
}

func (s *Server) handleNewScenario(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	s.session.reset(req.Name)
	s.syncEntityGauges()
	s.hub.publish("scenario.new", "")
	return c.Status(fiber.StatusCreated).JSON(s.session.scenario.Summary())
}

func (s *Server) handleLoadScenario(c *fiber.Ctx) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Path == "" {
		return badRequest(c, "path is required")
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if err := s.session.load(req.Path); err != nil {
		s.reqLog(c).Error(c.UserContext(), "scenario load failed",
			logging.String("path", req.Path), logging.Err(err))
		return badRequest(c, err.Error())
	}
	s.metrics.ScenarioLoads.Inc()
	s.syncEntityGauges()
	s.hub.publish("scenario.loaded", "")
	return c.JSON(s.session.scenario.Summary())
}

func (s *Server) handleSaveScenario(c *fiber.Ctx) error {
	var req struct {
		Path   string `json:"path"`
		Format string `json:"format"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Path == "" {
		return badRequest(c, "path is required")
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	// Mirror the environment into the scenario so the file carries it.
	s.session.syncEnvironment()
	if err := s.session.scenario.SaveToFile(req.Path, req.Format); err != nil {
		s.reqLog(c).Error(c.UserContext(), "scenario save failed",
			logging.String("path", req.Path), logging.Err(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.metrics.ScenarioSaves.Inc()
	s.hub.publish("scenario.saved", "")
	return c.JSON(s.session.scenario.Summary())
}

func (s *Server) handleUpdateMetadata(c *fiber.Ctx) error {
	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Author      *string  `json:"author"`
		Version     *string  `json:"version"`
		Tags        []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	scn := s.session.scenario
	if req.Name != nil {
		scn.SetName(*req.Name)
	}
	if req.Description != nil {
		scn.SetDescription(*req.Description)
	}
	if req.Author != nil {
		scn.SetAuthor(*req.Author)
	}
	if req.Version != nil {
		scn.SetVersion(*req.Version)
	}
	if req.Tags != nil {
		scn.SetTags(req.Tags)
	}
	s.hub.publish("metadata.updated", "")
	return c.JSON(scn.Summary())
}

// ---- Agents ----

func (s *Server) handleListAgents(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	out := make(map[string]any, len(s.session.scenario.Agents))
	for id, a := range s.session.scenario.Agents {
		out[id] = a.ToMap()
	}
	return c.JSON(out)
}

func (s *Server) handleAddAgent(c *fiber.Ctx) error {
	doc, err := parseDocument(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	a, err := agent.FromMap(doc)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	s.session.scenario.AddAgent(a)
	s.syncEntityGauges()
	s.hub.publish("agent.added", a.ID)
	return c.Status(fiber.StatusCreated).JSON(a.ToMap())
}

func (s *Server) handleGetAgent(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	a, ok := s.session.scenario.Agent(c.Params("id"))
	if !ok {
		return notFound(c, "agent not found")
	}
	return c.JSON(a.ToMap())
}

func (s *Server) handleUpdateAgent(c *fiber.Ctx) error {
	id := c.Params("id")
	doc, err := parseDocument(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	// The path names the entity; the body cannot rename it.
	doc["id"] = id
	a, err := agent.FromMap(doc)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if _, ok := s.session.scenario.Agent(id); !ok {
		return notFound(c, "agent not found")
	}
	s.session.scenario.AddAgent(a)
	s.hub.publish("agent.updated", id)
	return c.JSON(a.ToMap())
}

func (s *Server) handleRemoveAgent(c *fiber.Ctx) error {
	id := c.Params("id")
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if !s.session.scenario.RemoveAgent(id) {
		return notFound(c, "agent not found")
	}
	s.syncEntityGauges()
	s.hub.publish("agent.removed", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Robots ----

func (s *Server) handleListRobots(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	out := make(map[string]any, len(s.session.scenario.Robots))
	for id, r := range s.session.scenario.Robots {
		out[id] = r.ToMap()
	}
	return c.JSON(out)
}

func (s *Server) handleAddRobot(c *fiber.Ctx) error {
	doc, err := parseDocument(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	r, err := agent.RobotFromMap(doc)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	s.session.scenario.AddRobot(r)
	s.syncEntityGauges()
	s.hub.publish("robot.added", r.ID)
	return c.Status(fiber.StatusCreated).JSON(r.ToMap())
}

func (s *Server) handleGetRobot(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	r, ok := s.session.scenario.Robot(c.Params("id"))
	if !ok {
		return notFound(c, "robot not found")
	}
	return c.JSON(r.ToMap())
}

func (s *Server) handleUpdateRobot(c *fiber.Ctx) error {
	id := c.Params("id")
	doc, err := parseDocument(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	doc["id"] = id
	r, err := agent.RobotFromMap(doc)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if _, ok := s.session.scenario.Robot(id); !ok {
		return notFound(c, "robot not found")
	}
	s.session.scenario.AddRobot(r)
	s.hub.publish("robot.updated", id)
	return c.JSON(r.ToMap())
}

func (s *Server) handleRemoveRobot(c *fiber.Ctx) error {
	id := c.Params("id")
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if !s.session.scenario.RemoveRobot(id) {
		return notFound(c, "robot not found")
	}
	s.syncEntityGauges()
	s.hub.publish("robot.removed", id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRobotEStop(c *fiber.Ctx) error {
	id := c.Params("id")
	// No body means engage: the panic path must not depend on a payload.
	req := struct {
		Engaged bool `json:"engaged"`
	}{Engaged: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	r, ok := s.session.scenario.Robot(id)
	if !ok {
		return notFound(c, "robot not found")
	}
	if req.Engaged {
		r.ActivateEmergencyStop()
	} else {
		r.ReleaseEmergencyStop()
	}
	// Re-adding marks the scenario dirty.
	s.session.scenario.AddRobot(r)
	s.hub.publish("robot.estop", id)
	return c.JSON(r.ToMap())
}

func (s *Server) handleRobotAddGoal(c *fiber.Ctx) error {
	id := c.Params("id")
	req := struct {
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Radius   float64 `json:"radius"`
		Priority int     `json:"priority"`
	}{Radius: 0.5, Priority: 1}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Radius <= 0 {
		return badRequest(c, "goal radius must be positive")
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	r, ok := s.session.scenario.Robot(id)
	if !ok {
		return notFound(c, "robot not found")
	}
	goalID := r.AddGoal(req.X, req.Y, req.Radius, req.Priority)
	s.session.scenario.AddRobot(r)
	s.hub.publish("robot.goal_added", goalID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"goal_id": goalID})
}

// ---- Static objects ----

func (s *Server) handleListObjects(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	out := make(map[string]any, len(s.session.scenario.StaticObjects))
	for id, obj := range s.session.scenario.StaticObjects {
		out[id] = obj.ToMap()
	}
	return c.JSON(out)
}

func (s *Server) handleAddObject(c *fiber.Ctx) error {
	doc, err := parseDocument(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if _, ok := doc["type"]; !ok {
		doc["type"] = string(agent.TypeStaticObject)
	}
	obj, err := agent.FromMap(doc)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	s.session.scenario.AddStaticObject(obj)
	s.syncEntityGauges()
	s.hub.publish("object.added", obj.ID)
	return c.Status(fiber.StatusCreated).JSON(obj.ToMap())
}

func (s *Server) handleGetObject(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	obj, ok := s.session.scenario.StaticObject(c.Params("id"))
	if !ok {
		return notFound(c, "static object not found")
	}
	return c.JSON(obj.ToMap())
}

func (s *Server) handleUpdateObject(c *fiber.Ctx) error {
	id := c.Params("id")
	doc, err := parseDocument(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	doc["id"] = id
	if _, ok := doc["type"]; !ok {
		doc["type"] = string(agent.TypeStaticObject)
	}
	obj, err := agent.FromMap(doc)
	if err != nil {
		return badRequest(c, err.Error())
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if _, ok := s.session.scenario.StaticObject(id); !ok {
		return notFound(c, "static object not found")
	}
	s.session.scenario.AddStaticObject(obj)
	s.hub.publish("object.updated", id)
	return c.JSON(obj.ToMap())
}

func (s *Server) handleRemoveObject(c *fiber.Ctx) error {
	id := c.Params("id")
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if !s.session.scenario.RemoveStaticObject(id) {
		return notFound(c, "static object not found")
	}
	s.syncEntityGauges()
	s.hub.publish("object.removed", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Scenario-level goals ----

func (s *Server) handleListGoals(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	out := make(map[string]any, len(s.session.scenario.Goals))
	for id, g := range s.session.scenario.Goals {
		out[id] = g.ToMap()
	}
	return c.JSON(out)
}

func (s *Server) handleAddScenarioGoal(c *fiber.Ctx) error {
	doc, err := parseDocument(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	g := agent.GoalFromMap(doc)

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	s.session.scenario.AddGoal(&g)
	s.syncEntityGauges()
	s.hub.publish("goal.added", g.ID)
	return c.Status(fiber.StatusCreated).JSON(g.ToMap())
}

func (s *Server) handleRemoveScenarioGoal(c *fiber.Ctx) error {
	id := c.Params("id")
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if !s.session.scenario.RemoveGoal(id) {
		return notFound(c, "goal not found")
	}
	s.syncEntityGauges()
	s.hub.publish("goal.removed", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Environment ----

func (s *Server) handleGetEnvironment(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	return c.JSON(s.session.env.ToMap())
}

func (s *Server) handleCreateGrid(c *fiber.Ctx) error {
	var req struct {
		Width      int       `json:"width"`
		Height     int       `json:"height"`
		Resolution float64   `json:"resolution"`
		Origin     pointBody `json:"origin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	err := s.session.env.CreateOccupancyGrid(req.Width, req.Height, req.Resolution, req.Origin.point())
	if err != nil {
		return badRequest(c, err.Error())
	}
	s.session.syncEnvironment()
	s.hub.publish("environment.grid_created", "")
	return c.Status(fiber.StatusCreated).JSON(s.session.env.Grid.Info)
}

func (s *Server) handleAddWall(c *fiber.Ctx) error {
	req := struct {
		ID        string    `json:"id"`
		Start     pointBody `json:"start"`
		End       pointBody `json:"end"`
		Thickness float64   `json:"thickness"`
	}{Thickness: 0.1}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	s.session.env.AddWall(req.ID, req.Start.point(), req.End.point(), req.Thickness)
	s.session.syncEnvironment()
	s.hub.publish("environment.wall_added", req.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": req.ID})
}

func (s *Server) handleRemoveWall(c *fiber.Ctx) error {
	id := c.Params("id")
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if !s.session.env.RemoveWall(id) {
		return notFound(c, "wall not found")
	}
	s.session.syncEnvironment()
	s.hub.publish("environment.wall_removed", id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAddObstacle(c *fiber.Ctx) error {
	req := struct {
		ID       string    `json:"id"`
		Position pointBody `json:"position"`
		Shape    string    `json:"shape"`
		Size     struct {
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
			Radius float64 `json:"radius"`
		} `json:"size"`
		IsStatic *bool `json:"is_static"`
	}{Shape: string(world.ShapeRectangle)}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	static := true
	if req.IsStatic != nil {
		static = *req.IsStatic
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	err := s.session.env.AddObstacle(req.ID, req.Position.point(), world.Shape(req.Shape), world.Extent{
		Width:  req.Size.Width,
		Height: req.Size.Height,
		Radius: req.Size.Radius,
	}, static)
	if err != nil {
		return badRequest(c, err.Error())
	}
	s.session.syncEnvironment()
	s.hub.publish("environment.obstacle_added", req.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": req.ID})
}

func (s *Server) handleRemoveObstacle(c *fiber.Ctx) error {
	id := c.Params("id")
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if !s.session.env.RemoveObstacle(id) {
		return notFound(c, "obstacle not found")
	}
	s.session.syncEnvironment()
	s.hub.publish("environment.obstacle_removed", id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAddZone(c *fiber.Ctx) error {
	var req struct {
		ID         string         `json:"id"`
		Type       string         `json:"type"`
		Bounds     world.Bounds   `json:"bounds"`
		Properties map[string]any `json:"properties"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	s.session.env.AddZone(req.ID, req.Type, req.Bounds, req.Properties)
	s.session.syncEnvironment()
	s.hub.publish("environment.zone_added", req.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": req.ID})
}

func (s *Server) handleRemoveZone(c *fiber.Ctx) error {
	id := c.Params("id")
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if !s.session.env.RemoveZone(id) {
		return notFound(c, "zone not found")
	}
	s.session.syncEnvironment()
	s.hub.publish("environment.zone_removed", id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleEnvironmentBounds(c *fiber.Ctx) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	return c.JSON(s.session.env.Bounds())
}

func (s *Server) handleEnvironmentFree(c *fiber.Ctx) error {
	x := c.QueryFloat("x")
	y := c.QueryFloat("y")
	buffer := c.QueryFloat("buffer")

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	free := s.session.env.IsPositionFree(geo.Pt(x, y), buffer)
	return c.JSON(fiber.Map{"x": x, "y": y, "buffer": buffer, "free": free})
}

func (s *Server) handleExportMap(c *fiber.Ctx) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Path == "" {
		return badRequest(c, "path is required")
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if s.session.env.Grid == nil {
		return badRequest(c, "environment has no occupancy grid")
	}
	if err := s.session.env.Grid.WriteMapFiles(req.Path); err != nil {
		s.reqLog(c).Error(c.UserContext(), "map export failed",
			logging.String("path", req.Path), logging.Err(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.hub.publish("environment.map_exported", "")
	return c.JSON(fiber.Map{"path": req.Path})
}
