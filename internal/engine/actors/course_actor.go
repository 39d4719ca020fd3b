package actors

import (
	stdctx "context"
	"log"
	"sort"
	"time"

	"campus-feed/internal/database"
	"campus-feed/internal/models"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Course operations
type (
	CreateCourseMsg struct {
		ID           string // optional; seeded courses use human-readable ids
		Code         string
		Name         string
		Description  string
		InstructorID string
		AccessCode   string
	}

	GetCourseMsg struct {
		CourseID string
	}

	ListCoursesMsg struct{}

	JoinCourseMsg struct {
		UserID     string
		CourseID   string
		AccessCode string
	}

	LeaveCourseMsg struct {
		UserID   string
		CourseID string
	}

	GetCourseMembersMsg struct {
		CourseID string
	}

	loadCoursesFromDBMsg struct{}
)

// CourseActor is the course registry and enrollment manager in one mailbox:
// it owns course records and their member sets, so concurrent join/leave on
// the same (user, course) pair are applied one at a time and converge.
type CourseActor struct {
	coursesByID map[string]*models.Course
	members     map[string]map[string]bool
	metrics     *utils.MetricsCollector
	enginePID   *actor.PID
	db          database.Adapter
}

func NewCourseActor(metrics *utils.MetricsCollector, enginePID *actor.PID, db database.Adapter) actor.Actor {
	return &CourseActor{
		coursesByID: make(map[string]*models.Course),
		members:     make(map[string]map[string]bool),
		metrics:     metrics,
		enginePID:   enginePID,
		db:          db,
	}
}

func (a *CourseActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CourseActor started with PID: %v", context.Self())
		context.Send(context.Self(), &loadCoursesFromDBMsg{})

	case *loadCoursesFromDBMsg:
		a.handleLoadCourses()

	case *CreateCourseMsg:
		a.handleCreateCourse(context, msg)

	case *GetCourseMsg:
		a.handleGetCourse(context, msg)

	case *ListCoursesMsg:
		a.handleListCourses(context)

	case *JoinCourseMsg:
		a.handleJoinCourse(context, msg)

	case *LeaveCourseMsg:
		a.handleLeaveCourse(context, msg)

	case *GetCourseMembersMsg:
		a.handleGetMembers(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.coursesByID))
	}
}

func (a *CourseActor) handleLoadCourses() {
	ctx := stdctx.Background()

	courses, err := a.db.GetAllCourses(ctx)
	if err != nil {
		log.Printf("CourseActor: failed to load courses: %v", err)
		return
	}

	for _, course := range courses {
		a.coursesByID[course.ID] = course
		memberSet := make(map[string]bool, len(course.MemberIDs))
		for _, userID := range course.MemberIDs {
			memberSet[userID] = true
		}
		a.members[course.ID] = memberSet
	}

	log.Printf("CourseActor: loaded %d courses", len(courses))
}

func (a *CourseActor) handleCreateCourse(context actor.Context, msg *CreateCourseMsg) {
	startTime := time.Now()

	if msg.Name == "" || msg.Code == "" {
		context.Respond(utils.NewValidationError("course code and name are required"))
		return
	}

	courseID := msg.ID
	if courseID == "" {
		courseID = uuid.NewString()
	}
	if _, exists := a.coursesByID[courseID]; exists {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Course already exists: "+courseID, nil))
		return
	}

	newCourse := &models.Course{
		ID:                 courseID,
		Code:               msg.Code,
		Name:               msg.Name,
		Description:        msg.Description,
		InstructorID:       msg.InstructorID,
		MemberIDs:          make([]string, 0),
		AccessCode:         msg.AccessCode,
		RequiresAccessCode: msg.AccessCode != "",
		CreatedAt:          time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.db.SaveCourse(ctx, newCourse); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save course", err))
		return
	}

	a.coursesByID[courseID] = newCourse
	a.members[courseID] = make(map[string]bool)

	a.metrics.AddOperationLatency("create_course", time.Since(startTime))
	log.Printf("CourseActor: created course %s (%s)", msg.Code, courseID)
	context.Respond(a.snapshotCourse(newCourse))
}

func (a *CourseActor) handleGetCourse(context actor.Context, msg *GetCourseMsg) {
	if course, exists := a.coursesByID[msg.CourseID]; exists {
		context.Respond(a.snapshotCourse(course))
		return
	}

	// Read through to storage: another instance may have written the course
	// after this actor warmed its working set.
	course, err := a.db.GetCourse(stdctx.Background(), msg.CourseID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewNotFoundError("Course", msg.CourseID))
		}
		return
	}

	a.coursesByID[course.ID] = course
	memberSet := make(map[string]bool, len(course.MemberIDs))
	for _, userID := range course.MemberIDs {
		memberSet[userID] = true
	}
	a.members[course.ID] = memberSet
	context.Respond(a.snapshotCourse(course))
}

func (a *CourseActor) handleListCourses(context actor.Context) {
	courses := make([]*models.Course, 0, len(a.coursesByID))
	for _, course := range a.coursesByID {
		courses = append(courses, a.snapshotCourse(course))
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	context.Respond(courses)
}

func (a *CourseActor) handleJoinCourse(context actor.Context, msg *JoinCourseMsg) {
	startTime := time.Now()

	course, exists := a.coursesByID[msg.CourseID]
	if !exists {
		context.Respond(utils.NewNotFoundError("Course", msg.CourseID))
		return
	}

	// Access codes are compared byte-exact against the course's fixed
	// secret. A missing code on a gated course fails the same way.
	if course.AccessCode != "" && msg.AccessCode != course.AccessCode {
		log.Printf("CourseActor: user %s denied access to course %s", msg.UserID, msg.CourseID)
		context.Respond(utils.NewAccessDeniedError(msg.CourseID))
		return
	}

	if a.members[msg.CourseID][msg.UserID] {
		// Re-joining is an idempotent no-op.
		context.Respond(a.snapshotCourse(course))
		return
	}

	if err := a.persistMembership(course, msg.UserID, true); err != nil {
		context.Respond(err)
		return
	}

	context.Send(a.enginePID, &EnrollmentChangedMsg{
		UserID:   msg.UserID,
		CourseID: msg.CourseID,
		Joined:   true,
	})

	a.metrics.AddOperationLatency("join_course", time.Since(startTime))
	log.Printf("CourseActor: user %s joined course %s", msg.UserID, msg.CourseID)
	context.Respond(a.snapshotCourse(course))
}

func (a *CourseActor) handleLeaveCourse(context actor.Context, msg *LeaveCourseMsg) {
	startTime := time.Now()

	course, exists := a.coursesByID[msg.CourseID]
	if !exists {
		context.Respond(utils.NewNotFoundError("Course", msg.CourseID))
		return
	}

	if !a.members[msg.CourseID][msg.UserID] {
		// Leaving a course the user is not in is a no-op success.
		context.Respond(&models.StatusResponse{Success: true, Message: "Not a member"})
		return
	}

	if err := a.persistMembership(course, msg.UserID, false); err != nil {
		context.Respond(err)
		return
	}

	context.Send(a.enginePID, &EnrollmentChangedMsg{
		UserID:   msg.UserID,
		CourseID: msg.CourseID,
		Joined:   false,
	})

	a.metrics.AddOperationLatency("leave_course", time.Since(startTime))
	log.Printf("CourseActor: user %s left course %s", msg.UserID, msg.CourseID)
	context.Respond(&models.StatusResponse{Success: true, Message: "Left course"})
}

func (a *CourseActor) handleGetMembers(context actor.Context, msg *GetCourseMembersMsg) {
	if _, exists := a.coursesByID[msg.CourseID]; !exists {
		context.Respond(utils.NewNotFoundError("Course", msg.CourseID))
		return
	}
	context.Respond(a.memberList(msg.CourseID))
}

// persistMembership saves the updated member set before committing it to the
// in-memory working set, so a storage failure leaves no partial state.
func (a *CourseActor) persistMembership(course *models.Course, userID string, joined bool) error {
	memberSet := a.members[course.ID]
	if memberSet == nil {
		memberSet = make(map[string]bool)
		a.members[course.ID] = memberSet
	}

	updated := make(map[string]bool, len(memberSet)+1)
	for id := range memberSet {
		updated[id] = true
	}
	if joined {
		updated[userID] = true
	} else {
		delete(updated, userID)
	}

	toSave := *course
	toSave.MemberIDs = sortedMemberIDs(updated)

	ctx := stdctx.Background()
	if err := a.db.SaveCourse(ctx, &toSave); err != nil {
		log.Printf("CourseActor: failed to persist membership for course %s: %v", course.ID, err)
		return utils.NewAppError(utils.ErrDatabase, "Failed to persist membership", err)
	}

	a.members[course.ID] = updated
	course.MemberIDs = toSave.MemberIDs
	return nil
}

func (a *CourseActor) memberList(courseID string) []string {
	return sortedMemberIDs(a.members[courseID])
}

func (a *CourseActor) snapshotCourse(course *models.Course) *models.Course {
	clone := *course
	clone.MemberIDs = a.memberList(course.ID)
	return &clone
}

func sortedMemberIDs(memberSet map[string]bool) []string {
	ids := make([]string, 0, len(memberSet))
	for id := range memberSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
