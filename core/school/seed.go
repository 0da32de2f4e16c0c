package school

import "time"

// Seed datasets persisted on first access of an empty collection.

func seedStudents() []Student {
	return []Student{
		{ID: "1", FullName: "Ahmed Nur", ParentName: "Fatima Ali", Phone: "615-555-0101", Grade: Grade5, EnrollmentDate: "2023-09-01", Gender: "Male", DOB: "2012-05-15", Address: "Mogadishu, Hodan", ParentAccessCode: "AHM-101", LibraryClearance: true},
		{ID: "2", FullName: "Khadija Omar", ParentName: "Omar Yusuf", Phone: "615-555-0102", Grade: Grade3, EnrollmentDate: "2023-09-02", Gender: "Female", DOB: "2014-08-20", Address: "Mogadishu, Waberi", ParentAccessCode: "KHA-102", LibraryClearance: true},
		{ID: "3", FullName: "Liban Farah", ParentName: "Amina Hassan", Phone: "615-555-0103", Grade: Grade8, EnrollmentDate: "2023-09-01", Gender: "Male", DOB: "2009-03-10", Address: "Mogadishu, Heliwa", ParentAccessCode: "LIB-103"},
		{ID: "4", FullName: "Safia Abdi", ParentName: "Abdi Mohamed", Phone: "615-555-0104", Grade: Grade1, EnrollmentDate: "2024-01-15", Gender: "Female", DOB: "2016-11-05", Address: "Mogadishu, Hamar Weyne", ParentAccessCode: "SAF-104", LibraryClearance: true},
		{ID: "5", FullName: "Yusuf Ibrahim", ParentName: "Hodan Warsame", Phone: "615-555-0105", Grade: Grade5, EnrollmentDate: "2023-09-01", Gender: "Male", DOB: "2012-01-25", Address: "Mogadishu, Hodan", ParentAccessCode: "YUS-105", LibraryClearance: true},
	}
}

func seedTeachers() []Teacher {
	return []Teacher{
		{ID: "t1", FullName: "Ustad Hassan", Phone: "615-000-001", Subjects: []string{"Math", "Physics"}, JoinDate: "2020-01-01"},
		{ID: "t2", FullName: "Ustadah Maryam", Phone: "615-000-002", Subjects: []string{"Somali", "Tarbiyo"}, JoinDate: "2021-05-15"},
	}
}

func seedFees() []FeeRecord {
	return []FeeRecord{
		{ID: "101", StudentID: "1", Amount: 50, Date: "2024-05-01", Status: PaymentPaid, Description: "Tuition Fee"},
		{ID: "102", StudentID: "2", Amount: 45, Date: "2024-05-01", Status: PaymentPending, Description: "Tuition Fee"},
		{ID: "103", StudentID: "3", Amount: 60, Date: "2024-04-01", Status: PaymentOverdue, Description: "Transport Fee"},
	}
}

func seedExpenses() []ExpenseRecord {
	return []ExpenseRecord{
		{ID: "e1", Description: "Teacher Salaries (May)", Category: ExpenseSalary, Amount: 1200, Date: "2024-05-01"},
		{ID: "e2", Description: "School Cleaning Supplies", Category: ExpenseSupplies, Amount: 150, Date: "2024-05-05"},
	}
}

func seedAttendance(now time.Time) []AttendanceRecord {
	today := now.Format(dateLayout)
	return []AttendanceRecord{
		{ID: "a1", StudentID: "1", Date: today, Status: StatusPresent},
		{ID: "a2", StudentID: "2", Date: today, Status: StatusAbsent},
		{ID: "a3", StudentID: "3", Date: today, Status: StatusLate},
	}
}

func seedExamResults() []ExamResult {
	return []ExamResult{
		{ID: "g1", StudentID: "1", Subject: "Math", Score: 85, MaxScore: 100, Date: "2024-04-15", Term: Term1},
		{ID: "g2", StudentID: "1", Subject: "Somali", Score: 92, MaxScore: 100, Date: "2024-04-15", Term: Term1},
		{ID: "g3", StudentID: "5", Subject: "Math", Score: 78, MaxScore: 100, Date: "2024-04-15", Term: Term1},
	}
}

func seedActivities(now time.Time) []ActivityLog {
	return []ActivityLog{
		{ID: "act1", Action: "System Initialized", Details: "Welcome to Shule SMS", Date: now.Format(time.RFC3339), Timestamp: now.UnixNano() / int64(time.Millisecond), Type: SeverityInfo},
	}
}

func seedSettings() SchoolSettings {
	return SchoolSettings{
		Name:     "Cabdullahi ibnu Mubarak",
		Address:  "Mogadishu, Somalia",
		Phone:    "+252 61 5000000",
		Theme:    ThemeOcean,
		FeeTypes: []string{"Tuition Fee", "Registration Fee", "Exam Fee", "Transport Fee", "Books/Uniform"},
		Subjects: []string{"Math", "Physics", "Biology", "Chemistry", "Somali", "Carabi", "English", "Tarbiyo", "Taarikh", "Juqraafi", "Business", "Technology"},
		Currency: "USD",
	}
}

const seedAnnouncement = "Welcome to the new term! Please ensure all student records are updated by Friday."
